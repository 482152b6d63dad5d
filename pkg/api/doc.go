// Package api exposes the topic queue over HTTP.
//
//	GET  /topics          queued topics, oldest first
//	GET  /topics/size     number of queued topics
//	POST /topics          {"topics": [...]} appends new topics
//	POST /topics/pop      dispatches the next topic now
//	GET  /health/live     liveness probe
//	GET  /health/ready    readiness probe
//	GET  /images/*        generated images, when served from local storage
//
// JSON responses share one envelope:
//
//	{"code": "ok", "data": {...}}
//	{"code": "bad_request", "error": {"code": "bad_request", "message": "..."}}
//
// Every response carries an X-Request-ID header.
package api
