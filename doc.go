// Package loanbook projects cash flows for portfolios of amortizing loans
// and derives fixed-income risk metrics from them. It is designed to be
// local-first, auditable, and deterministic: the same book and assumptions
// always produce the same schedules, to the last bit.
//
// The core functionalities include:
//   - Book Management: Recording loans, economic assumptions, and accounting
//     policies in an immutable, human-readable JSONL command stream.
//   - Cash-Flow Projection: A per-loan monthly waterfall applying credit
//     losses, prepayments (CPR), scheduled amortization, fees, and the
//     investor ownership split. The recurrence is strictly forward, with
//     no state outside the schedule itself.
//   - Aggregation: Rolling per-loan schedules into portfolio monthly totals,
//     optionally grouped by tier or other keys.
//   - Yield Solving: A Newton-with-bisection-fallback root finder for the
//     effective yield of an irregular, dated cash-flow series under monthly,
//     quarterly, semiannual, annual, or continuous compounding.
//   - Risk Metrics: Macaulay and modified duration, analytical convexity,
//     and weighted average life over projected schedules.
//
// This package serves as the foundational logic for the `lcs` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package loanbook
