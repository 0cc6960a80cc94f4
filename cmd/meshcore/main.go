/*
File Name:  main.go
Copyright:  2021 Peernet s.r.o.
Author:     Peter Kleissner
*/
package main

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/duskline/meshcore/core"
	"github.com/duskline/meshcore/core/addr"
	"github.com/duskline/meshcore/core/stun"
	"github.com/fatih/color"
	"github.com/peterh/liner"
)

const banner = `
 __  __           _     ____
|  \/  | ___  ___| |__ / ___|___  _ __ ___
| |\/| |/ _ \/ __| '_ \| |   / _ \| '__/ _ \
| |  | |  __/\__ \ | | | |__| (_) | | |  __/
|_|  |_|\___||___/_| |_|\____\___/|_|  \___|
`

func main() {
	fmt.Print(banner)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	name, err := line.Prompt("Your display name: ")
	if err != nil {
		fmt.Println("error reading name:", err)
		os.Exit(core.ExitErrorStun)
	}
	name = strings.TrimSpace(name)

	socket, err := net.ListenUDP("udp6", &net.UDPAddr{IP: net.IPv6unspecified, Port: 0})
	if err != nil {
		fmt.Println("error binding socket:", err)
		os.Exit(core.ExitErrorSocketBind)
	}

	public, err := discoverPublicAddr(socket)
	if err != nil {
		fmt.Println("error discovering public address via STUN:", err)
		os.Exit(core.ExitErrorStun)
	}
	if !public.Addr().Is6() || public.Addr().Is4In6() {
		fmt.Println("error: no IPv6 public address available")
		os.Exit(core.ExitErrorNotIPv6)
	}

	color.Cyan("Your public address: %s\n", addr.Encode(public))

	events := core.Events{
		PeerConnected: func(n string, a netip.AddrPort) {
			color.Green("* %s connected (%s)\n", n, a)
		},
		PeerDisconnected: func(n string, a netip.AddrPort) {
			color.Red("* %s disconnected (%s)\n", n, a)
		},
		ChatReceived: func(username, message string, at time.Time) {
			color.Yellow("[%s] %s: %s\n", at.Format("15:04:05"), username, message)
		},
		TransferProgress: func(peerName, filename string, sent, total uint32) {
			// visual progress is handled by the progress bars inside
			// core's transfer tasks; this hook is for external metrics.
		},
	}

	session := core.NewSession(name, socket, events)

	id, notices := session.Subscribe()
	defer session.Unsubscribe(id)
	go func() {
		for n := range notices {
			color.Cyan("%s\n", n)
		}
	}()

	go func() {
		if err := session.Run(); err != nil {
			color.Red("dispatcher stopped: %v\n", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		session.Shutdown(2 * time.Second)
		os.Exit(core.ExitSuccess)
	}()

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			break
		}
		line.AppendHistory(input)
		session.HandleLine(input)
	}

	session.Shutdown(2 * time.Second)
}

func discoverPublicAddr(socket *net.UDPConn) (netip.AddrPort, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stunAddr, err := stun.ResolveIPv6(ctx)
	if err != nil {
		return netip.AddrPort{}, err
	}

	if err := socket.SetDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return netip.AddrPort{}, err
	}
	defer socket.SetDeadline(time.Time{})

	return stun.GetPublicAddr(socket, stunAddr)
}
