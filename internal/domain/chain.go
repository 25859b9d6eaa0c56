// internal/domain/chain.go
package domain

import "fmt"

// PlaceholderPackageID is the value shipped in sample .env files before the Move package is deployed.
const PlaceholderPackageID = "0xYOUR_PACKAGE_ID_HERE"

// ChainConfig is the public configuration a wallet client needs to build a donate transaction.
type ChainConfig struct {
	CharityAddress string `json:"charityAddress"`
	PackageID      string `json:"packageId"`
	MoveFunction   string `json:"moveFunction"` // Fully-qualified entry function, e.g. 0xabc::donation::donate
	Network        string `json:"network"`
	ExplorerURL    string `json:"explorerUrl"`
}

// PackageConfigured reports whether id refers to a deployed package.
func PackageConfigured(id string) bool {
	return id != "" && id != PlaceholderPackageID
}

// MoveTarget returns the fully-qualified Move call target for a package.
func MoveTarget(packageID, module, entry string) string {
	return fmt.Sprintf("%s::%s::%s", packageID, module, entry)
}
