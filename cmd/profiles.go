package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tablechat/tablechat-cli/internal/store"
	"github.com/tablechat/tablechat-cli/internal/utils"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage saved dataset profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles that are still within retention",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		ids := st.List()
		if len(ids) == 0 {
			fmt.Println("No saved profiles")
			return nil
		}
		for _, id := range ids {
			p, err := st.Get(id)
			if err != nil {
				continue
			}
			fmt.Printf("%s  %s  %d rows  expires %s\n", p.ID, p.File.Name, p.File.RowCount, p.ExpiresAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one saved profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		p, err := st.Get(args[0])
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(p)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

var profilesSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evict profiles past their retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		n := st.Sweep()
		fmt.Printf("Evicted %d expired profile(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesSweepCmd)
}

func openStore() (*store.Store, error) {
	if cfg == nil || cfg.ProfilesDir == "" {
		return nil, fmt.Errorf("profiles_dir is not configured")
	}
	return store.NewPersistent(cfg.ProfilesDir)
}
