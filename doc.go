// Package jsonapi provides a client-side mapping engine for JSON:API
// hypermedia services. It translates JSON:API documents to and from typed,
// identity-pooled resource graphs, compiles structured queries into request
// URLs, and exposes the serializer/deserializer pair that the operation
// pipeline in the client subpackage builds on.
//
// Resource schemas are declared once, at process start, as an ordered list
// of field descriptors per resource type (see [FieldDescriptor]). Instances
// carry no schema of their own; they hold only state ([ResourceData]) behind
// typed accessor methods that application code writes by hand.
package jsonapi
