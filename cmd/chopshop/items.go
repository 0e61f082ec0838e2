package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/format"
)

const suggestionCount = 3

func newItemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items [name...]",
		Short: "List catalog items or resolve names against the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd, false); err != nil {
				return err
			}
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				items := cat.Items()
				if upgraded, _ := cmd.Flags().GetBool(FlagUpgraded); upgraded {
					items = cat.Upgraded()
				}
				_, err := io.WriteString(out, format.FormatItems(items))
				return err
			}

			for _, q := range args {
				resolveOne(out, cat, q)
			}
			return nil
		},
	}
	cmd.Flags().Bool(FlagUpgraded, false, "List only items built from components")
	return cmd
}

func resolveOne(w io.Writer, a catalog.Accessor, query string) {
	it, kind := catalog.Resolve(a, query)
	if it == nil {
		fmt.Fprintf(w, "%q: no match", query)
		if s := catalog.Suggest(a, query, suggestionCount); len(s) > 0 {
			fmt.Fprintf(w, " (did you mean %s?)", strings.Join(s, ", "))
		}
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "%q: %s match\n", query, kind)
	fmt.Fprint(w, format.FormatItems([]*catalog.Item{it}))
}
