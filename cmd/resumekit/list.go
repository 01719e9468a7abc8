package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumekit/internal/filter"
)

var (
	listOwner     string
	listSkills    []string
	listLocations []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored résumés",
	Long:  "Prints a table of the owner's résumés, optionally narrowed by skill or location keywords.",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listOwner, "owner", "", "owner ID (default: watch.owner from config)")
	listCmd.Flags().StringSliceVar(&listSkills, "skill", nil, "only résumés listing one of these skills (repeatable)")
	listCmd.Flags().StringSliceVar(&listLocations, "location", nil, "only résumés located in one of these places (repeatable)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	st, err := openStore(cfg, silentLogger())
	if err != nil {
		return err
	}
	defer st.Close()

	resumes, err := st.List(context.Background(), ownerOrDefault(listOwner, cfg))
	if err != nil {
		return fmt.Errorf("list resumes: %w", err)
	}
	f := filter.NewSkillAndLocationFilter(listSkills, listLocations)

	fmt.Printf("%-36s %-25s %-20s %-6s %s\n", "ID", "Name", "Location", "Skills", "Updated")
	fmt.Println(strings.Repeat("─", 106))

	shown := 0
	for _, r := range resumes {
		if !f.Match(r) {
			continue
		}
		shown++
		fmt.Printf("%-36s %-25s %-20s %-6d %s\n",
			r.ID,
			truncateCell(r.Name, 25),
			truncateCell(r.Data.PersonalInfo.Location, 20),
			len(r.Data.Skills),
			r.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	fmt.Printf("\nTotal: %d résumés (%d shown)\n", len(resumes), shown)
	return nil
}

func truncateCell(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
