// Package worker runs the background jobs of the anchor server:
// confirming unsettled anchors, verifying pending identity records
// and watching the ledger endpoints file for changes.
package worker
