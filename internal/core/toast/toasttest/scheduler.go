// Package toasttest provides a virtual clock scheduler for testing code
// built on toast.Manager.
package toasttest

import "github.com/colonyops/toast/internal/core/toast"

// ManualScheduler is a toast.Scheduler driven by Advance instead of real
// time. See toast.VirtualScheduler.
type ManualScheduler = toast.VirtualScheduler

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return toast.NewVirtualScheduler()
}
