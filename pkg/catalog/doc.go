// Package catalog is the boundary to the remote app catalog.
//
// Source is the single operation the harvester needs: fetch one page or one
// fixed top list of app records. Client implements it against a REST gateway
// exposing google-play-scraper style listings:
//
//	GET {base}/api/apps/?category=TOOLS&country=us&num=2500&start=5000&fullDetail=true
//	GET {base}/api/apps/?category=TOOLS&country=us&num=100&collection=TOP_FREE
//
// Every request passes through a rate limiter. Failures are returned as
// typed errors from playharvest/pkg/errors so callers can log their cause.
package catalog
