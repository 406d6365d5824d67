// Package domain contains the core domain entities and types used by the
// moderation pipeline. These types represent the business concepts (image
// files, their processing states, verdicts and run statistics) and are
// intentionally free of infrastructure concerns so they can be shared across
// packages.
package domain
