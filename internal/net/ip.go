package net

import (
	"log"
	"net"
)

// OutgoingIP finds the local address other machines can reach us on.
func OutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// Offline networks still have a LAN address.
		return interfaceIP()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// interfaceIP returns the first IPv4 address of an interface that is up
// and not loopback.
func interfaceIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Printf("[NET] Listing interfaces failed: %v", err)
		return "127.0.0.1"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	log.Println("[NET] No suitable local IP found, share link may fail.")
	return "127.0.0.1"
}
