package tracker

import (
	"errors"
	"io"
	"reflect"

	"github.com/lunagic/typescript-go/typescript"
)

type typeScriptOutput struct {
	namespace string
	writer    io.Writer
	types     map[string]reflect.Type
}

// WithTypeScriptOutput writes a TypeScript client for the router to writer
// once the app is built. Named struct types used by router methods are
// exported alongside the ones in extraTypes.
func WithTypeScriptOutput(namespace string, writer io.Writer, extraTypes map[string]reflect.Type) ConfigurationFunc {
	return func(app *App) error {
		if writer == nil {
			return errors.New("typescript output requires a writer")
		}

		types := map[string]reflect.Type{}
		for name, t := range extraTypes {
			types[name] = t
		}

		app.typeScript = &typeScriptOutput{
			namespace: namespace,
			writer:    writer,
			types:     types,
		}

		return nil
	}
}

func (app *App) generateTypeScript() error {
	if app.typeScript == nil {
		return nil
	}

	routes := app.routerTypeScriptRoutes()
	for _, route := range routes {
		for _, t := range []reflect.Type{route.RequestBody, route.ResponseBody} {
			if t == nil || t.Kind() != reflect.Struct || t.Name() == "" {
				continue
			}

			if _, found := app.typeScript.types[t.Name()]; !found {
				app.typeScript.types[t.Name()] = t
			}
		}
	}

	return typescript.New(
		typescript.WithCustomNamespace(app.typeScript.namespace),
		typescript.WithTypes(app.typeScript.types),
		typescript.WithRoutes(routes),
	).Generate(app.typeScript.writer)
}
