package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swipesavvy/location-tracking-go/internal/models"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect or edit tracking preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the effective tracking preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		prefs, err := a.prefs.Load(context.Background())
		if err != nil {
			return err
		}
		if prefs == nil {
			defaults := models.DefaultPreferences()
			prefs = &defaults
		}

		out, err := json.MarshalIndent(prefs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var (
	prefsFrequency  string
	prefsTracking   bool
	prefsGeofencing bool
	prefsShare      bool
)

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Patch tracking preferences; unset flags keep their stored values",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		var patch models.PreferencePatch
		if cmd.Flags().Changed("frequency") {
			freq := models.UpdateFrequency(prefsFrequency)
			switch freq {
			case models.FrequencyFrequent, models.FrequencyNormal, models.FrequencyBatterySaver:
			default:
				return fmt.Errorf("invalid frequency %q (frequent, normal, battery_saver)", prefsFrequency)
			}
			patch.UpdateFrequency = &freq
		}
		if cmd.Flags().Changed("tracking") {
			patch.EnableTracking = &prefsTracking
		}
		if cmd.Flags().Changed("geofencing") {
			patch.EnableGeofencing = &prefsGeofencing
		}
		if cmd.Flags().Changed("share") {
			patch.ShareLocation = &prefsShare
		}

		merged, err := a.prefs.Merge(context.Background(), patch)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(merged, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	prefsSetCmd.Flags().StringVar(&prefsFrequency, "frequency", "", "update frequency: frequent, normal or battery_saver")
	prefsSetCmd.Flags().BoolVar(&prefsTracking, "tracking", true, "enable tracking")
	prefsSetCmd.Flags().BoolVar(&prefsGeofencing, "geofencing", true, "enable geofencing")
	prefsSetCmd.Flags().BoolVar(&prefsShare, "share", true, "share location")

	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
}
