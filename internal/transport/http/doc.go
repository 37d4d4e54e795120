// Package http exposes the analytics engines over HTTP with chi. Metrics
// endpoints accept a table plus parameters and answer the derived table as
// JSON or, with ?format=csv, as a CSV download; game endpoints fetch from
// the games API collaborator and run the game-log aggregations.
package http
