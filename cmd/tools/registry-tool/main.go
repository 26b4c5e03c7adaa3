// cmd/tools/registry-tool/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"activities-api/pkg/registry"

	"github.com/spf13/cobra"
)

const (
	Version  = "1.0.0"
	toolName = "registry-tool"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// defaultRegistryPath is relative to the repository root.
const defaultRegistryPath = "configs/activities.json"

func rootCmd() *cobra.Command {
	var registryPath string

	cmd := &cobra.Command{
		Use:           toolName,
		Short:         "Maintain the activity seed catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&registryPath, "path", defaultRegistryPath, "Path to the seed catalogue")

	cmd.AddCommand(
		validateCmd(&registryPath),
		listCmd(&registryPath),
		addCmd(&registryPath),
		updateCmd(&registryPath),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", toolName, Version)
			},
		},
	)
	return cmd
}

func validateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the seed catalogue against its schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			if len(reg.Activities) == 0 {
				return fmt.Errorf("registry validation failed: catalogue contains no activities")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
}

func listCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List activities in the seed catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadOrDefault(*path)
			if err != nil {
				return err
			}
			printActivities(cmd.OutOrStdout(), reg)
			return nil
		},
	}
}

func addCmd(path *string) *cobra.Command {
	var a registry.Activity

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity to the seed catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Name == "" || a.Description == "" || a.Schedule == "" {
				return fmt.Errorf("name, description and schedule are required for add")
			}

			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("failed to load registry: %w", err)
				}
				reg = &registry.ActivityRegistry{
					Version:    "1.0.0",
					Activities: []registry.Activity{},
				}
			}

			if err := reg.Add(a); err != nil {
				return err
			}
			if err := save(reg, *path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", a.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&a.Name, "name", "", "Activity name (e.g. Chess Club)")
	cmd.Flags().StringVar(&a.Description, "description", "", "Description")
	cmd.Flags().StringVar(&a.Schedule, "schedule", "", "Schedule (e.g. Fridays, 3:30 PM - 5:00 PM)")
	cmd.Flags().IntVar(&a.MaxParticipants, "max-participants", 20, "Maximum number of participants")
	return cmd
}

func updateCmd(path *string) *cobra.Command {
	var name, field, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update one field of an existing activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || field == "" || value == "" {
				return fmt.Errorf("name, field and value are required for update")
			}

			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}

			idx := -1
			for i := range reg.Activities {
				if reg.Activities[i].Name == name {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("activity %q not found", name)
			}

			switch field {
			case "description":
				reg.Activities[idx].Description = value
			case "schedule":
				reg.Activities[idx].Schedule = value
			case "max_participants":
				n, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("invalid max_participants value: %w", err)
				}
				reg.Activities[idx].MaxParticipants = n
			default:
				return fmt.Errorf("unknown field: %s", field)
			}

			if err := save(reg, *path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", name, field, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Activity name to update")
	cmd.Flags().StringVar(&field, "field", "", "Field to update (description, schedule, max_participants)")
	cmd.Flags().StringVar(&value, "value", "", "New value for the field")
	return cmd
}

// save stamps lastUpdated and writes the catalogue, creating the directory if needed.
func save(reg *registry.ActivityRegistry, path string) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return reg.Save(path)
}

func printActivities(out io.Writer, reg *registry.ActivityRegistry) {
	activities := append([]registry.Activity(nil), reg.Activities...)
	sort.Slice(activities, func(i, j int) bool { return activities[i].Name < activities[j].Name })

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSCHEDULE\tPARTICIPANTS")
	for _, a := range activities {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\n", a.Name, a.Schedule, len(a.Participants), a.MaxParticipants)
	}
	_ = tw.Flush()
}
