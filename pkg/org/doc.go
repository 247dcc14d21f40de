// Package org defines the billet data model and the normalizer that turns
// fetched records into a working set.
//
// # Records and Nodes
//
// Sources return [Record] values as stored: free text, optional fields, and
// superior links that may be wrong. [Normalize] trims them into [Node] values,
// derives the reservist flag, and guarantees the working set is a forest:
//
//   - every id is non-empty and unique
//   - no node is its own superior
//   - superior links contain no cycles
//   - no id starts with [ReservedPrefix]
//
// A node whose superior id is not in the set is a root. Such links are kept
// on the node and listed by [Set.MissingReferences] so callers can log them.
// The same holds for an active billet whose superior is a reservist:
// reservists are not part of the active hierarchy, so the billet heads its
// own subtree and the link is listed with ReservistSuperior set.
//
// # Reservists
//
// A record's explicit Reservist flag wins. Without it, [IsReservistRole]
// matches reserve keywords in the role text.
//
// # Vacancies
//
// A billet with a nil Occupant is vacant. That is a distinct state from a
// billet with an empty role.
package org
