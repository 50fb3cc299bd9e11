package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect or drain the offline update queue",
}

var queueShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the queued location updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		updates, err := a.queue.Load(context.Background())
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(updates, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var queueDrainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Replay queued updates against the merchant platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		before := a.svc.QueueDepth(ctx)

		if !a.svc.Init(ctx, a.client) {
			return fmt.Errorf("location permission denied")
		}

		userID, err := a.identity.UserID(ctx)
		if err != nil {
			return err
		}

		a.svc.ProcessQueuedUpdates(ctx, userID)
		fmt.Printf("drained %d queued update(s)\n", before)
		return nil
	},
}

func init() {
	queueCmd.AddCommand(queueShowCmd)
	queueCmd.AddCommand(queueDrainCmd)
}
