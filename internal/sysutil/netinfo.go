package sysutil

import "net"

// LocalIP finds the outward-facing interface address by opening a UDP socket
// toward a public IP. Nothing is sent; the kernel just picks the route.
// Returns "" when no route exists.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return ""
	}
	return addr.IP.String()
}
