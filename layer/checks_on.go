//go:build !layers_nocheck

package layer

const contractChecks = true
