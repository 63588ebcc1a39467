package cli

import "fmt"

// NotifyCmd sends a test notification through the tray webhook. Hidden;
// it exists to debug the tray integration.
type NotifyCmd struct {
	Text string `arg:"" optional:"" default:"Test notification from healthstash" help:"Notification text."`
}

func (c *NotifyCmd) Run(ctx *Context) error {
	if !ctx.Notifier.Available() {
		return fmt.Errorf("tray app is not running")
	}
	if err := ctx.Notifier.Notify(c.Text); err != nil {
		return err
	}
	fmt.Println("Notification sent")
	return nil
}
