package cmd

import (
	"fmt"
	"strings"

	"github.com/ComedicChimera/olive"
	"github.com/kr/pretty"
	"github.com/pterm/pterm"

	"ulang/depm"
	"ulang/ir"
	"ulang/report"
	"ulang/uir"
	"ulang/util"
)

// execDumpCommand executes the dump subcommand: it decodes a module file and
// displays its tables and a disassembly of every body.
func execDumpCommand(result *olive.ArgParseResult) int {
	modPath, _ := result.PrimaryArg()

	mod, debug, err := uir.Read(modPath)
	if err != nil {
		report.ReportFatal("failed to read module file: %s", err)
	}

	if result.HasFlag("raw") {
		fmt.Printf("%# v\n", pretty.Formatter(mod))
		return 0
	}

	if debug {
		pterm.DefaultSection.Println("Project")
		fmt.Printf("id: %s\nname: %s\nversion: %s\n", mod.Project.ID, mod.Project.Name, mod.Project.Version)
	}

	dumpStructs("Structs", mod, mod.Structs)
	dumpStructs("Unions", mod, mod.Unions)

	if len(mod.Globals) > 0 {
		pterm.DefaultSection.Println("Globals")

		data := pterm.TableData{{"#", "Name", "Type"}}
		for i, g := range mod.Globals {
			data = append(data, []string{fmt.Sprint(i), g.Name, g.Type.Repr(mod)})
		}

		renderTable(data)
	}

	if len(mod.Functions) > 0 {
		pterm.DefaultSection.Println("Functions")

		data := pterm.TableData{{"#", "Signature", "Flags", "Body"}}
		for i, fn := range mod.Functions {
			body := "-"
			if !fn.Has(depm.FuncExtern) {
				body = fmt.Sprint(fn.BodyIndex)
			}

			data = append(data, []string{fmt.Sprint(i), signature(mod, fn), fn.Flags.String(), body})
		}

		renderTable(data)
	}

	for i, body := range mod.Bodies {
		pterm.DefaultSection.Printf("Body %d (%d bytes)\n", i, len(body.Code))

		insts, err := ir.Decode(body.Code)
		for _, inst := range insts {
			fmt.Printf("  %04x  %s\n", inst.Offset, inst)
		}

		if err != nil {
			report.ReportStdError(modPath, err)
		}
	}

	if report.AnyErrors() {
		return 1
	}

	return 0
}

// dumpStructs displays a table of structs or unions.
func dumpStructs(title string, mod *depm.Module, structs []*depm.Struct) {
	if len(structs) == 0 {
		return
	}

	pterm.DefaultSection.Println(title)

	data := pterm.TableData{{"#", "Name", "Fields"}}
	for i, st := range structs {
		fields := util.Map(st.Fields, func(f *depm.Field) string {
			return f.Type.Repr(mod) + " " + f.Name
		})

		data = append(data, []string{fmt.Sprint(i), st.Name, strings.Join(fields, ", ")})
	}

	renderTable(data)
}

// signature renders a function signature as it would be declared.
func signature(mod *depm.Module, fn *depm.Function) string {
	params := util.Map(fn.Params, func(p *depm.Param) string {
		if p.Name == depm.VariadicParamName {
			return p.Name
		}

		return p.Type.Repr(mod) + " " + p.Name
	})

	return fmt.Sprintf("%s %s(%s)", fn.Return.Repr(mod), fn.Name, strings.Join(params, ", "))
}

// renderTable renders a table whose first row is its header.
func renderTable(data pterm.TableData) {
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		report.ReportStdError("dump", err)
	}
}
