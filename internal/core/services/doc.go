// Package services implements the core operations: bag discovery,
// time range resolution, overlap computation, cropping, splitting and
// inspection. Services depend on the driven ports only; all storage
// and terminal concerns live behind them.
package services
