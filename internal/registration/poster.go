package registration

import (
	"fmt"
	"net"
	"strings"

	"github.com/nccmultimedia/attendance-server/internal/notify"
)

// PosterFilename is the registration poster image in the QR directory.
const PosterFilename = "register_poster.png"

// RegisterURL is the address printed on the poster. Without a public base
// URL it points at this host's first non-loopback IPv4 address.
func RegisterURL(publicBaseURL string, port int) string {
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("http://%s:%d", LocalIP(), port)
	}
	return base + "/register"
}

// LocalIP returns the first private IPv4 address, or 127.0.0.1.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}

	fallback := ""
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil {
			continue
		}
		if ip.IsPrivate() {
			return ip.String()
		}
		if fallback == "" {
			fallback = ip.String()
		}
	}
	if fallback != "" {
		return fallback
	}
	return "127.0.0.1"
}

// WritePoster renders url into dir/PosterFilename.
func WritePoster(dir, url string, size int) (string, error) {
	return notify.WriteQR(dir, PosterFilename, url, size)
}
