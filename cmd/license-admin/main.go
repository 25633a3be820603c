package main

import (
	"fmt"
	"os"

	"stockpilot/internal/license"
)

const defaultLicensePath = ".license"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	mgr := license.NewManager(licensePath())

	switch os.Args[1] {
	case "generate":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "usage: license-admin generate <email> <monthly|lifetime>")
			os.Exit(1)
		}
		key, err := mgr.Generate(os.Args[2], os.Args[3])
		if err != nil {
			fmt.Fprintln(os.Stderr, "generate failed:", err)
			os.Exit(1)
		}
		fmt.Println("License key generated:")
		fmt.Println(" ", key)

	case "activate":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "usage: license-admin activate <key> <email>")
			os.Exit(1)
		}
		if err := mgr.Activate(os.Args[2], os.Args[3]); err != nil {
			fmt.Fprintln(os.Stderr, "activate failed:", err)
			os.Exit(1)
		}
		fmt.Println("License activated")

	case "info":
		lic, err := mgr.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "load failed:", err)
			os.Exit(1)
		}
		if lic == nil {
			fmt.Println("No license installed")
			return
		}
		ok, reason := mgr.Verify()
		fmt.Println("Key:      ", lic.Key)
		fmt.Println("Email:    ", lic.Email)
		fmt.Println("Plan:     ", lic.Plan)
		fmt.Println("Activated:", lic.Activated.Format("2006-01-02"))
		if lic.Expiration != nil {
			fmt.Println("Expires:  ", lic.Expiration.Format("2006-01-02"))
		}
		fmt.Println("Valid:    ", ok, "-", reason)

	case "deactivate":
		if err := mgr.Deactivate(); err != nil {
			fmt.Fprintln(os.Stderr, "deactivate failed:", err)
			os.Exit(1)
		}
		fmt.Println("License removed")

	default:
		usage()
		os.Exit(1)
	}
}

func licensePath() string {
	if p := os.Getenv("LICENSE_PATH"); p != "" {
		return p
	}
	return defaultLicensePath
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: license-admin <generate|activate|info|deactivate> [args]")
}
