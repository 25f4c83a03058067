// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the dispatcher.
//
// # Available Jobs
//
// 1. ReconciliationSweepJob - Runs at a configurable interval to assign
// waiting orders and self-heal stuck courier flags.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(sweepHandler, intervalSeconds, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep job is single-flow: a tick that fires while a previous pass is
// still running is skipped rather than queued. Event-triggered assignment
// attempts (mark ready, courier online, rejection) do not go through this
// package at all; they run inline in their command handlers and may overlap
// with a periodic pass safely because every path re-verifies state through
// the same assignment coordinator.
package jobs
