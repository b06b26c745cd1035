package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

var menuFile string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the resolved seed menu as YAML",
	Long: `Parse the seed menu (embedded, or --file / MENU_FILE) and print it with every
product's category resolved. Useful to check how uncategorized items will be grouped.`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&menuFile, "file", "", "menu file to parse instead of the embedded one")
}

type printedSection struct {
	Category string           `yaml:"category"`
	Name     string           `yaml:"name"`
	Products []printedProduct `yaml:"products"`
}

type printedProduct struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Price    string   `yaml:"price"`
	Variants []string `yaml:"variants,omitempty"`
}

func runMenu(cmd *cobra.Command, _ []string) error {
	path := menuFile
	if path == "" {
		path = loadConfig().MenuFile
	}

	menu, err := catalog.DefaultMenu()
	if err != nil {
		return err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read menu file: %w", err)
		}
		if err := menu.Replace(data); err != nil {
			return err
		}
	}

	sections := catalog.Sections(menu.Products(), menu.Categories())
	out := make([]printedSection, 0, len(sections))
	for _, s := range sections {
		ps := printedSection{Category: string(s.Category.ID), Name: s.Category.Name}
		for _, p := range s.Products {
			pp := printedProduct{ID: p.ID, Name: p.Name, Price: p.Price.String()}
			for _, v := range p.Variants {
				pp.Variants = append(pp.Variants, v.Label+" "+v.Price.String())
			}
			ps.Products = append(ps.Products, pp)
		}
		out = append(out, ps)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}
