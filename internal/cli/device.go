package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Print the device and user identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()

		userID, err := a.identity.UserID(ctx)
		if err != nil {
			return err
		}
		deviceID, err := a.identity.DeviceID(ctx)
		if err != nil {
			return err
		}

		if userID == "" {
			userID = "(not signed in)"
		}
		fmt.Printf("user:   %s\ndevice: %s\n", userID, deviceID)
		return nil
	},
}
