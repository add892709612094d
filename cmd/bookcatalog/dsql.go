package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qolzam/bookcatalog/books/dsql"
	bookErrors "github.com/qolzam/bookcatalog/books/errors"
)

type dsqlResult struct {
	Valid bool                           `json:"valid"`
	Tree  string                         `json:"tree,omitempty"`
	Error *bookErrors.FilterErrorDetails `json:"error,omitempty"`
}

func newDsqlCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dsql <expression>",
		Short: "Parse a filter expression and print its canonical tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := parseExpression(args[0])

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else if result.Valid {
				fmt.Fprintln(out, result.Tree)
			} else {
				fmt.Fprintf(out, "%s at %d: %s\n", result.Error.Kind, result.Error.Position, result.Error.Reason)
			}

			if !result.Valid {
				return fmt.Errorf("invalid expression: %s", result.Error.Kind)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func parseExpression(raw string) dsqlResult {
	n, err := dsql.Parse(raw)
	if err == nil {
		return dsqlResult{Valid: true, Tree: n.String()}
	}
	details := &bookErrors.FilterErrorDetails{Kind: "SYNTAX_ERROR", Position: -1, Reason: err.Error()}
	var perr *dsql.Error
	if errors.As(err, &perr) {
		details.Kind = perr.Code()
		details.Position = perr.Pos
		details.Field = perr.Field
	}
	return dsqlResult{Error: details}
}
