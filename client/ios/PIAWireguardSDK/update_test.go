package PIAWireguardSDK

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type updateListener chan string

func (l updateListener) OnUpdateAvailable(version string) { l <- version }

func TestStartUpdateCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("9.0.0"))
	}))
	defer srv.Close()

	l := make(updateListener, 1)
	StartUpdateCheck(srv.URL, l)
	defer StopUpdateCheck()

	select {
	case v := <-l:
		assert.Equal(t, "9.0.0", v)
	case <-time.After(10 * time.Second):
		t.Fatal("update listener was not called")
	}

	StopUpdateCheck()
	StopUpdateCheck()
}
