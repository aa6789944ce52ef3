// Package domain contains the core business concepts for the card service.
// Keep this package free of transport (HTTP) and infrastructure
// (PDF/filesystem) concerns.
package domain
