package PIAWireguardSDK

import (
	"context"
	"sync"

	"github.com/Commencement-Technology/mobile-ios-wireguard/version"
)

// UpdateListener is notified when a release newer than the framework is published
type UpdateListener interface {
	OnUpdateAvailable(version string)
}

var (
	updateCancel     context.CancelFunc
	updateCancelLock sync.Mutex
)

// StartUpdateCheck polls releaseURL in the background until StopUpdateCheck is
// called. An empty releaseURL uses the default release location. A running
// check is replaced.
func StartUpdateCheck(releaseURL string, listener UpdateListener) {
	updateCancelLock.Lock()
	defer updateCancelLock.Unlock()
	if updateCancel != nil {
		updateCancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	updateCancel = cancel

	u := version.NewUpdate(releaseURL, nil)
	u.SetOnUpdateListener(listener.OnUpdateAvailable)
	go u.Start(ctx)
}

// StopUpdateCheck stops the background release polling
func StopUpdateCheck() {
	updateCancelLock.Lock()
	defer updateCancelLock.Unlock()
	if updateCancel == nil {
		return
	}
	updateCancel()
	updateCancel = nil
}
