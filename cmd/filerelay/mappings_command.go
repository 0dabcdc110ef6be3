package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"filerelay/internal/config"
	"filerelay/internal/mapping"
	"filerelay/internal/task"
)

func newMappingsCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mappings",
		Short: "Show the configured folder mappings and task chains",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			plan := mapping.FromConfig(cfg)
			if plan == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no folder mappings configured")
				return nil
			}

			folderRows := make([][]string, 0, len(plan.Folders))
			for i := range plan.Folders {
				folder := &plan.Folders[i]
				folderRows = append(folderRows, []string{
					folder.Name,
					folder.SourceDir,
					folder.RemoteDir,
					folder.NotifyAddress,
					strconv.Itoa(len(folder.Tasks)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Folder", "Source", "Remote", "Notify", "Tasks"},
				folderRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))

			taskRows := make([][]string, 0)
			for i := range plan.Folders {
				folder := &plan.Folders[i]
				ordered := make([]mapping.TaskMap, len(folder.Tasks))
				copy(ordered, folder.Tasks)
				sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].Order < ordered[b].Order })
				for _, tm := range ordered {
					taskRows = append(taskRows, []string{
						folder.Name,
						strconv.Itoa(tm.Order),
						task.ResolveName(tm.Name, folder),
						tm.Type,
					})
				}
			}
			if len(taskRows) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Folder", "Order", "Task", "Type"},
					taskRows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
				))
			}
			return nil
		},
	}
}
