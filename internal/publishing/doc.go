// Package publishing holds the domain model of the publishing context:
// categories, tutorials, and the raw wire Resource they are assembled from.
//
// Entities are plain values. Construction fills defaults for anything the
// caller leaves unset and never fails; the zero ID marks an entity the server
// has not persisted yet.
package publishing
