package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/lunagic/poseidon/poseidon"
	"github.com/lunagic/typescript-go/typescript"
)

// ErrInvalidPayload wraps request bodies that could not be decoded.
var ErrInvalidPayload = errors.New("invalid request payload")

type Validator interface {
	Validate(r *http.Request) error
}

// WithRouter exposes every exported method of T under prefix. The method is
// picked with ?method=Name; a POST body is decoded into the first argument
// that no argument provider supplies. Methods return a value and optionally
// an error, which is handed to errorHandler.
func WithRouter[T any](
	prefix string,
	router T,
	errorHandler func(w http.ResponseWriter, r *http.Request, err error),
	middlewares ...poseidon.Middleware,
) ConfigurationFunc {
	return func(app *App) error {
		if app.autoRouter.Enabled() {
			return errors.New("a router is already registered")
		}

		app.autoRouter.Type = reflect.TypeFor[T]()
		app.autoRouter.Prefix = prefix

		return WithHandler(
			app.autoRouter.Prefix,
			poseidon.Middlewares(middlewares).Apply(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					methodString := r.URL.Query().Get(autoRouterQueryParamName)

					// Confirm that the method name is in the interface
					methodDef, found := app.autoRouter.Type.MethodByName(methodString)
					if !found || !methodDef.IsExported() {
						http.NotFound(w, r)
						return
					}

					// Get the method from the instance provided
					method := reflect.ValueOf(router).MethodByName(methodString)

					in := []reflect.Value{}
					for inIndex := range methodDef.Type.NumIn() {
						inType := methodDef.Type.In(inIndex)

						// For struct methods (compared to interface methods),
						// index 0 is the receiver. The "actual" parameters you pass
						// when calling the method start at index 1.
						if inIndex == 0 && inType == app.autoRouter.Type {
							continue
						}

						overrideFunc, found := app.autoRouter.argumentMapping[inType]
						if found {
							value, err := overrideFunc(w, r)
							if err != nil {
								errorHandler(w, r, err)
								return
							}
							in = append(in, value)
							continue
						}

						if r.Method != http.MethodPost {
							in = append(in, reflect.Zero(inType))
							continue
						}

						payload := reflect.New(inType).Interface()
						if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
							errorHandler(w, r, fmt.Errorf("%w: %w", ErrInvalidPayload, err))
							return
						}

						payloadThatCanBeValidated, ok := payload.(Validator)
						if ok {
							if err := payloadThatCanBeValidated.Validate(r); err != nil {
								errorHandler(w, r, err)
								return
							}
						}

						in = append(in, reflect.ValueOf(payload).Elem())
					}

					outArgs := method.Call(in)
					if len(outArgs) == 0 {
						w.WriteHeader(http.StatusNoContent)
						return
					}

					if errAny := outArgs[len(outArgs)-1].Interface(); len(outArgs) > 1 && errAny != nil {
						errorHandler(w, r, errAny.(error))
						return
					}

					poseidon.RespondJSON(w, http.StatusOK, outArgs[0].Interface())
				}),
			),
		)(app)
	}
}

func WithRouterArgumentProvider[T any](customArgumentProvider func(w http.ResponseWriter, r *http.Request) (T, error)) ConfigurationFunc {
	return func(app *App) error {
		newType := reflect.TypeFor[T]()
		if _, found := app.autoRouter.argumentMapping[newType]; found {
			return errors.New("duplicate CustomArgumentProvider type, it was already registered")
		}

		app.autoRouter.argumentMapping[newType] = func(w http.ResponseWriter, r *http.Request) (reflect.Value, error) {
			result, err := customArgumentProvider(w, r)
			if err != nil {
				return reflect.Value{}, err
			}

			value := reflect.New(newType).Elem()
			if any(result) != nil {
				value.Set(reflect.ValueOf(result))
			}

			return value, nil
		}

		return nil
	}
}

func (app *App) validateRouter() error {
	if !app.autoRouter.Enabled() {
		return nil
	}

	errorType := reflect.TypeFor[error]()
	for methodIndex := range app.autoRouter.Type.NumMethod() {
		method := app.autoRouter.Type.Method(methodIndex)
		if !method.IsExported() {
			continue
		}

		switch method.Type.NumOut() {
		case 0, 1:
		case 2:
			if method.Type.Out(1) != errorType {
				return fmt.Errorf("router method %s: second return type must be error", method.Name)
			}
		default:
			return fmt.Errorf("router method %s: too many return values", method.Name)
		}
	}

	return nil
}

func (app *App) routerTypeScriptRoutes() map[string]typescript.Route {
	routes := map[string]typescript.Route{}
	if !app.autoRouter.Enabled() {
		return routes
	}

	for methodIndex := range app.autoRouter.Type.NumMethod() {
		method := app.autoRouter.Type.Method(methodIndex)
		if !method.IsExported() {
			continue
		}

		if method.Type.NumOut() == 0 {
			continue
		}

		httpMethod := http.MethodGet
		var httpRequest reflect.Type

		for inIndex := range method.Type.NumIn() {
			in := method.Type.In(inIndex)

			if inIndex == 0 && in == app.autoRouter.Type {
				continue
			}

			if _, provided := app.autoRouter.argumentMapping[in]; provided {
				continue
			}

			httpMethod = http.MethodPost
			httpRequest = in
			break
		}

		routes[method.Name] = typescript.Route{
			Path:         fmt.Sprintf("%s?%s=%s", app.autoRouter.Prefix, autoRouterQueryParamName, method.Name),
			Method:       httpMethod,
			RequestBody:  httpRequest,
			ResponseBody: dereference(method.Type.Out(0)),
		}
	}

	return routes
}

func dereference(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

const autoRouterQueryParamName = "method"

type autoRouterConfig struct {
	Prefix          string
	Type            reflect.Type
	argumentMapping map[reflect.Type]func(w http.ResponseWriter, r *http.Request) (reflect.Value, error)
}

func (config autoRouterConfig) Enabled() bool {
	return config.Prefix != ""
}
