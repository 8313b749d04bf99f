package commands

import (
	"encoding/json"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/store"
)

// ShowCmd prints one entity.
var ShowCmd = &cobra.Command{
	Use:   "show <entity-id>",
	Short: "Show an entity with its aliases and statements",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

func init() {
	ShowCmd.Flags().BoolVar(&showJSON, "json", false, "Print the entity as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	backends, closeAll, err := openBackends()
	if err != nil {
		return err
	}
	defer closeAll()

	for _, b := range backends {
		e, err := b.GetEntity(args[0])
		if err != nil {
			return errors.Wrapf(err, "%s", b.name)
		}
		if showJSON {
			if err := printJSON(b.name, e); err != nil {
				return err
			}
			continue
		}

		pterm.DefaultSection.Println(b.name)
		if e == nil {
			pterm.Warning.Printfln("%s not found", args[0])
			continue
		}
		renderEntity(e)
	}
	return nil
}

func printJSON(name string, e *store.Entity) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]*store.Entity{name: e})
}

func renderEntity(e *store.Entity) {
	pterm.Printfln("%s  %s", pterm.Bold.Sprint(e.ID), e.Label)
	if e.Description != "" {
		pterm.Println(e.Description)
	}
	if e.Type != "" {
		pterm.Printfln("type: %s", e.Type)
	}

	if len(e.Aliases) > 0 {
		items := make([]pterm.BulletListItem, 0, len(e.Aliases))
		for _, a := range e.Aliases {
			items = append(items, pterm.BulletListItem{Text: a.Value + " (" + a.Language + ")"})
		}
		_ = pterm.DefaultBulletList.WithItems(items).Render()
	}

	if len(e.Statements) > 0 {
		data := pterm.TableData{{"Property", "Label", "Value", "Type"}}
		for _, s := range e.Statements {
			value := s.Value
			if s.IsReference() && s.EntityID != "" && s.EntityID != s.Value {
				value += " [" + s.EntityID + "]"
			}
			data = append(data, []string{s.Property.ID, s.Property.Label, value, string(s.ValueType)})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
}
