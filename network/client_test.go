package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/listentui/listentui/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Given a server echoing the user agent", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Agent", r.UserAgent())
		}))
		defer server.Close()

		Convey("Requests should identify the client", func() {
			resp, err := Client.Get(server.URL)
			So(err, ShouldBeNil)
			_ = resp.Body.Close()
			So(resp.Header.Get("X-Agent"), ShouldEqual, constant.UserAgent)
		})

		Convey("An explicit user agent should be kept", func() {
			req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
			req.Header.Set("User-Agent", "custom")
			resp, err := Client.Do(req)
			So(err, ShouldBeNil)
			_ = resp.Body.Close()
			So(resp.Header.Get("X-Agent"), ShouldEqual, "custom")
		})
	})
}
