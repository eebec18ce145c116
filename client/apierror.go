package client

import "github.com/hyperclient/jsonapi"

// failureFromResponse implements the error-preference rule for a status in
// [400,599]: the body is parsed for an errors[] array first; a populated
// array yields a [jsonapi.ServerError], otherwise the status alone yields a
// [jsonapi.NetworkError].
func failureFromResponse(deserializer *jsonapi.Deserializer, status int, body []byte) error {
	if len(body) > 0 {
		if doc, err := deserializer.Deserialize(body); err == nil && len(doc.Errors) > 0 {
			return &jsonapi.ServerError{Code: status, Errors: doc.Errors}
		}
	}
	return &jsonapi.NetworkError{Code: status}
}
