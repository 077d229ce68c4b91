// Package herald turns issue-tracker mutations into chat notifications.
//
// Herald is a library. The host (an issue-tracker workflow hook, or the
// heraldd daemon) hands it one snapshot per committed mutation; Herald
// decides which watchable changes happened, composes a single rich embed,
// resolves the webhooks it should go to, and posts it to each of them.
//
// Key features:
//   - Ordered, declarative event catalog with field-diff and custom predicates
//   - Discord-compatible embed/payload wire format
//   - Fan-out to base webhooks plus users who starred the issue
//   - Watcher registry with composable stores (Memory, Redis, SQLite, Postgres, MongoDB)
//   - Per-destination circuit breaking, metrics and tracing
//
// Quick start:
//
//	h, err := herald.New(
//	    herald.WithSite("Acme Tracker", "https://tracker.example.com"),
//	    herald.WithWebhooks("https://discord.com/api/webhooks/..."),
//	    herald.WithStore(memory.New()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := h.Notify(ctx, snapshot, actor)
package herald
