package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Options struct {
	Timeout time.Duration

	// Статический HTTP-прокси вместо прямого соединения.
	UseProxy  bool
	ProxyHost string
	ProxyPort int
}

func New(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
	}
	if u := ProxyURL(opts); u != nil {
		tr.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: tr,
	}
}

// ProxyURL returns nil when the static proxy is off or incomplete.
func ProxyURL(opts Options) *url.URL {
	if !opts.UseProxy || opts.ProxyHost == "" || opts.ProxyPort <= 0 {
		return nil
	}
	return &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(opts.ProxyHost, strconv.Itoa(opts.ProxyPort)),
	}
}
