// Package batch partitions an ordered sequence of items into fixed-size batches.
//
// Batch membership is positional: the item at index i belongs to batch
// i / batchSize, and only the final batch may be short. Key features:
//   - Configurable batch size (default 10 items per batch, minimum 1)
//   - Sequential, in-order delivery of each batch to a callback
//   - Progress tracking with callbacks for logging
//   - Context-aware cancellation between batches
package batch
