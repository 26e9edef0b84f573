package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the CSV files available as inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := listCSVFiles(dir)
			if err != nil {
				return reportErr(cmd, err)
			}
			if len(files) == 0 {
				return reportErr(cmd, fmt.Errorf("no CSV files found in %s", dir))
			}
			for i, name := range files {
				cmd.Printf("%d. %s\n", i+1, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to scan")
	return cmd
}

// listCSVFiles returns the .csv file names in dir, sorted.
func listCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}
