package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"supermodeler/declare"
	"supermodeler/modeler"
)

func newExplainCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <file>",
		Short: "Print the compiled models and mapping pipelines",
		Long: `Compile a declaration file and print every model type and every
mapping pipeline in the order its rules run.

Referenced functions are replaced by placeholders, so a file can be
explained without its Go implementations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), root.verbose)
			return runExplain(cmd.OutOrStdout(), args[0], modeler.New(modeler.WithLogger(logger)))
		},
	}
}

func runExplain(out io.Writer, path string, reg *modeler.Registry) error {
	f, err := declare.LoadFile(path)
	if err != nil {
		return err
	}

	funcs := declare.StubFuncs(f)
	if err := declare.Check(f, funcs, reg.Validators()).Error(); err != nil {
		return err
	}

	if err := declare.Apply(reg, f, funcs); err != nil {
		return err
	}

	for _, name := range reg.Models() {
		m, err := reg.Get(name)
		if err != nil {
			return err
		}

		explainModel(out, m)
	}

	for _, mp := range reg.Mappers() {
		fmt.Fprintf(out, "map %s -> %s\n", mp.Source(), mp.Target())

		for _, r := range mp.Rules() {
			fmt.Fprintf(out, "  %-13s %s\n", r.Kind, r)
		}
	}

	return nil
}

func explainModel(out io.Writer, m *modeler.ModelType) {
	fmt.Fprintf(out, "model %s\n", m.Name())

	readOnly := m.ReadOnlyFields()
	subs := m.SubModels()

	for _, name := range m.FieldNames() {
		var tags []string
		if sub, ok := subs[name]; ok {
			tags = append(tags, "type="+sub)
		}

		if slices.Contains(readOnly, name) {
			tags = append(tags, "read-only")
		}

		if len(tags) == 0 {
			fmt.Fprintf(out, "  %s\n", name)
			continue
		}

		fmt.Fprintf(out, "  %s [%s]\n", name, strings.Join(tags, " "))
	}

	if methods := m.Methods(); len(methods) > 0 {
		fmt.Fprintf(out, "  methods: %s\n", strings.Join(methods, ", "))
	}
}
