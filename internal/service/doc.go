// Package service implements the business layer of the vocabulary backend.
//
// VocabularyService sits between the HTTP handlers and CLI on one side and
// the repository on the other. It resolves character references, routes
// import and export through the codec package, and publishes an Event on
// the EventBus for every successful write so the SSE hub can forward it to
// connected clients.
package service
