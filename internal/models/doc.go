// Package models defines domain entities and persistence interfaces for the Lunar View client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): values exchanged with external services
//   - [Coordinate] : validated latitude/longitude pair
//   - [ResolvedLocation] : coordinate plus a best-effort display label
//   - [AstronomySnapshot] : sun/moon ephemeris payload from the backend
//   - [FavoriteEntry] : server-held saved location
//   - [ThemeState] / [NotificationPreference] : locally persisted preference state
//
// 2. Persistent Entities: database-backed models with full lifecycle management
//   - [Session] : bearer token from the most recent login
//   - [CachedFavorite] : local mirror of a server favorite for offline listing
//
// Persistent entities implement the Model interface providing ID generation,
// timestamps, validation, and soft delete support. The Repository[T] interface
// defines standard CRUD operations; the favorites cache repository implements
// it, while sessions use a narrower single-row store.
package models
