/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	AppName        = "swisspair"
	UserAgent      = "swisspair/0.3.0 (+https://github.com/mikeb26/swisspair)"
	DefaultBucket  = "bopmatic-swisspair-prod-state"
	WebCachePrefix = "webcache"
)
