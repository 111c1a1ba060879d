package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/ast"
	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/resolver"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/validation"
)

type unresolvedReport struct {
	Kind        formula.Kind `json:"kind"`
	ID          string       `json:"id"`
	Index       int          `json:"index"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

type skippedReport struct {
	Text   string `json:"text"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

type parseReport struct {
	Formula    string             `json:"formula"`
	Steps      formula.Steps      `json:"steps"`
	Unresolved []unresolvedReport `json:"unresolved"`
	Skipped    []skippedReport    `json:"skipped"`
}

func (a *app) newParseReport(res resolver.Result) parseReport {
	rep := parseReport{
		Formula:    formula.Serialize(res.Steps),
		Steps:      formula.Steps(res.Steps),
		Unresolved: make([]unresolvedReport, 0, len(res.Unresolved)),
		Skipped:    make([]skippedReport, 0, len(res.Skipped)),
	}
	for _, u := range res.Unresolved {
		rep.Unresolved = append(rep.Unresolved, unresolvedReport{
			Kind:        u.Kind,
			ID:          u.ID,
			Index:       u.Index,
			Suggestions: a.engine.Suggest(u.Kind, u.ID),
		})
	}
	for _, s := range res.Skipped {
		rep.Skipped = append(rep.Skipped, skippedReport{Text: s.Text, Column: s.Position.Column, Offset: s.Position.Offset})
	}
	return rep
}

func (a *app) parseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [formula]",
		Short: "Resolve a formula string into steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkFormat(FormatText, FormatJSON); err != nil {
				return err
			}
			text, err := a.readFormula(args)
			if err != nil {
				return err
			}

			rep := a.newParseReport(a.engine.Parse(text))
			if a.format == FormatJSON {
				return a.writeJSON(rep)
			}

			if err := a.printSteps(rep.Steps); err != nil {
				return err
			}
			color := a.useColor()
			for _, u := range rep.Unresolved {
				line := fmt.Sprintf("unresolved %s %q at step %d", u.Kind, u.ID, u.Index)
				if len(u.Suggestions) > 0 {
					line += " (did you mean " + strings.Join(u.Suggestions, ", ") + "?)"
				}
				_, _ = fmt.Fprintln(a.stdout, Colorize(line, ColorYellow, color))
			}
			for _, s := range rep.Skipped {
				_, _ = fmt.Fprintln(a.stdout, Colorize(fmt.Sprintf("skipped %q at column %d", s.Text, s.Column), ColorGray, color))
			}
			return nil
		},
	}
}

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [formula]",
		Short: "Check a formula and print its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkFormat(FormatText, FormatJSON); err != nil {
				return err
			}
			text, err := a.readFormula(args)
			if err != nil {
				return err
			}

			steps := a.engine.Steps(text)
			res := a.engine.Validate(steps)
			status := validation.Status(res, len(steps))

			if a.format == FormatJSON {
				if err := a.writeJSON(struct {
					Formula    string                   `json:"formula"`
					Validation validation.Result        `json:"validation"`
					Status     validation.StatusMessage `json:"status"`
				}{formula.Serialize(steps), res, status}); err != nil {
					return err
				}
			} else {
				a.printStatus(status)
				a.printValidation(res)
			}

			if !res.CanSave {
				return notSavable(ferrors.NewNotSavableError(status.Message))
			}
			return nil
		},
	}
}

func (a *app) astCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [formula]",
		Short: "Build the evaluator tree of a formula",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkFormat(FormatText, FormatJSON, FormatCBOR); err != nil {
				return err
			}
			text, err := a.readFormula(args)
			if err != nil {
				return err
			}

			tree := a.engine.BuildAST(a.engine.Steps(text))
			if err := a.writeNode(tree); err != nil {
				return err
			}
			if msgs := ast.Errors(tree); len(msgs) > 0 {
				return notSavable(ferrors.NewNotSavableError(msgs[0]))
			}
			return nil
		},
	}
}

func (a *app) writeNode(n ast.Node) error {
	switch a.format {
	case FormatJSON:
		return a.writeJSON(n)
	case FormatCBOR:
		data, err := ast.MarshalCBOR(n)
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(data)
		return err
	}
	_, err := fmt.Fprintln(a.stdout, n.String())
	return err
}

func (a *app) stepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "steps [ast-file]",
		Short: "Turn a JSON or CBOR evaluator tree back into steps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkFormat(FormatText, FormatJSON); err != nil {
				return err
			}
			if len(args) == 1 {
				a.file = args[0]
			}
			data, err := a.readInput()
			if err != nil {
				return err
			}

			tree, err := decodeNode(data)
			if err != nil {
				return err
			}
			steps := a.engine.StepsFromAST(tree)

			if a.format == FormatJSON {
				return a.writeJSON(formula.Steps(steps))
			}
			_, _ = fmt.Fprintln(a.stdout, formula.Serialize(steps))
			return nil
		},
	}
}

// decodeNode reads a JSON tree when the input starts with an object, CBOR
// otherwise.
func decodeNode(data []byte) (ast.Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ast.UnmarshalJSON(trimmed)
	}
	return ast.UnmarshalCBOR(data)
}

func (a *app) fingerprintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint [formula]",
		Short: "Print the content hash of a formula's evaluator tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readFormula(args)
			if err != nil {
				return err
			}
			fp, err := ast.Fingerprint(a.engine.BuildAST(a.engine.Steps(text)))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, fp)
			return err
		},
	}
}

func (a *app) saveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save [formula]",
		Short: "Validate a formula and print its persisted form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkFormat(FormatText, FormatJSON); err != nil {
				return err
			}
			text, err := a.readFormula(args)
			if err != nil {
				return err
			}

			saved, err := a.engine.Save(a.engine.Steps(text))
			if err != nil {
				return notSavable(err)
			}
			if a.format == FormatJSON {
				return a.writeJSON(saved)
			}
			_, _ = fmt.Fprintf(a.stdout, "formula:     %s\n", saved.Formula)
			_, _ = fmt.Fprintf(a.stdout, "fingerprint: %s\n", saved.Fingerprint)
			_, _ = fmt.Fprintf(a.stdout, "ast:         %s\n", saved.AST)
			return nil
		},
	}
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the catalog for circular variable formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.engine.CheckRecursion(); err != nil {
				return err
			}
			l := a.engine.Lookups()
			_, err := fmt.Fprintf(a.stdout, "%s %d variables, %d variable goals, %d indicator goals\n",
				Colorize("catalog ok:", ColorGreen, a.useColor()),
				len(l.Variables), len(l.GoalsVariables), len(l.GoalsIndicators))
			return err
		},
	}
}
