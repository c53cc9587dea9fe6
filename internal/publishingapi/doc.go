// Package publishingapi binds the publishing entities to the REST API.
//
// PublishingAPI is a thin facade over two httpapi endpoints (categories and
// tutorials) and returns raw responses. CategoryAssembler and
// TutorialAssembler turn those responses into entities and turn entities
// back into request bodies.
package publishingapi
