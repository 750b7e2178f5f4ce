package scrappey

// Normalize maps the deprecated "sessionId" field onto "session". Older
// versions of this client required "sessionId" even though scrappey.com only
// reads "session". The given options are left untouched.
func Normalize(opts Options) (Options, []Notice) {
	out := opts.clone()

	sessionId, ok := out[FieldSessionId].(string)
	if !ok {
		return out, nil
	}
	out[FieldSession] = sessionId
	delete(out, FieldSessionId)

	return out, []Notice{{
		Code:    NoticeLegacySessionId,
		Message: "The 'sessionId' property is deprecated, use 'session' instead.",
	}}
}
