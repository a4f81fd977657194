package xslt

import "errors"

// Sentinel errors distinguish the three tiers spec'd for this engine:
// fatal errors abort Apply; instruction-local errors are reported
// through the Tracer and turn the offending instruction into a no-op;
// warnings are reported through the Tracer and never change output.
var (
	ErrMissingAttribute   = errors.New("missing required attribute")
	ErrWrongType          = errors.New("wrong value type")
	ErrTemplateNotFound   = errors.New("no matching template")
	ErrNamedTemplate      = errors.New("named template not found")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrOutputMethod       = errors.New("unsupported output method")
	ErrMalformedComment   = errors.New("malformed comment content")
	ErrMalformedPI        = errors.New("malformed processing instruction content")
	ErrTerminate          = errors.New("xsl:message terminate=\"yes\"")
	ErrUnresolvedPrefix   = errors.New("unresolved namespace prefix")
	ErrAttributeOrder     = errors.New("attribute instruction after children were already emitted")
	ErrForbiddenName      = errors.New("forbidden attribute name")
	ErrUnknownMessage     = errors.New("unknown attribute value")
	ErrUnresolvedImport   = errors.New("no resolver configured for xsl:import/xsl:include")
)
