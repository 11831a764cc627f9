// Package ratelimit provides rate limiting functionality for the issue miner.
//
// This package implements multiple rate limiting algorithms to stay polite
// toward the GitHub search API and the image hosts probed during cleaning.
//
// Available Implementations:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - With capacity 1 it acts as a pacer between consecutive requests
//   - Used by the crawler to space search page fetches
//
// Sliding Window:
//   - Tracks requests within a moving time window
//   - More accurate rate limiting over time
//   - Used by the cleaner to cap image checks across workers
//
// Interface:
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// Pacer: one search fetch per second
//	limiter := ratelimit.NewTokenBucket(1, time.Second)
//
//	if limiter.Allow() {
//	    // Proceed with request
//	} else {
//	    // Wait for rate limit to reset
//	    limiter.Wait()
//	}
//
//	// Sliding window: 30 image checks per 10 seconds
//	limiter := ratelimit.NewSlidingWindow(30, 10*time.Second)
//
//	// Block until allowed
//	limiter.Wait()
//	// Proceed with request
package ratelimit
