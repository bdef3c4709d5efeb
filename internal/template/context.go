package template

import "wakeplay/internal/target"

// VarContentType names the variable holding the request's content type.
const VarContentType = "contentType"

// RequestVars builds the variables templates see for req: every non-blank
// identifier by name plus contentType. Each overlay is applied in order and
// wins over what came before.
func RequestVars(req target.Request, overlays ...map[string]string) map[string]string {
	vars := map[string]string{VarContentType: string(req.ContentType)}
	for _, name := range req.Identifiers.Names() {
		if v, ok := req.Identifiers.Get(name); ok {
			vars[name] = v
		}
	}
	for _, overlay := range overlays {
		for k, v := range overlay {
			vars[k] = v
		}
	}
	return vars
}
