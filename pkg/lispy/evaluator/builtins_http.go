package evaluator

import (
	"strings"
	"time"

	"github.com/lispy-lang/lispy/internal/httpclient"
	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// httpBuiltins covers the HTTP client family of spec.md §4.7's closing
// paragraph: `http-request` plus the `http-get`/`http-post`/`http-put`/
// `http-delete` convenience wrappers, all returning a promise.
func httpBuiltins(ctx *Context) map[string]*object.Builtin {
	client := httpclient.New(time.Duration(ctx.Config.HTTPTimeoutMs) * time.Millisecond)
	return map[string]*object.Builtin{
		"http-request": builtinHTTPRequest(client),
		"http-get":     builtinHTTPMethod(client, "GET"),
		"http-post":    builtinHTTPMethod(client, "POST"),
		"http-put":     builtinHTTPMethod(client, "PUT"),
		"http-delete":  builtinHTTPMethod(client, "DELETE"),
	}
}

func builtinHTTPRequest(client *httpclient.Client) *object.Builtin {
	return &object.Builtin{
		Name: "http-request",
		Doc:  "(http-request method url [body] [headers]) performs an HTTP call, returning a promise.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) < 2 || len(args) > 4 {
				return nil, lispyerrors.Arityf("http-request", "2 to 4", len(args))
			}
			method, ok := args[0].(object.String)
			if !ok {
				return nil, lispyerrors.Typef("http-request", 1, "a string", string(args[0].Kind()))
			}
			u, ok := args[1].(object.String)
			if !ok {
				return nil, lispyerrors.Typef("http-request", 2, "a string", string(args[1].Kind()))
			}
			body, headers, err := httpExtras(args[2:], "http-request", 3)
			if err != nil {
				return nil, err
			}
			return doHTTP(client, method.Value, u.Value, body, headers), nil
		},
	}
}

func builtinHTTPMethod(client *httpclient.Client, method string) *object.Builtin {
	name := "http-" + methodName(method)
	return &object.Builtin{
		Name: name,
		Doc:  "(" + name + " url [body] [headers]) performs an HTTP " + method + " call, returning a promise.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) < 1 || len(args) > 3 {
				return nil, lispyerrors.Arityf(name, "1 to 3", len(args))
			}
			u, ok := args[0].(object.String)
			if !ok {
				return nil, lispyerrors.Typef(name, 1, "a string", string(args[0].Kind()))
			}
			body, headers, err := httpExtras(args[1:], name, 2)
			if err != nil {
				return nil, err
			}
			return doHTTP(client, method, u.Value, body, headers), nil
		},
	}
}

func methodName(method string) string {
	switch method {
	case "GET":
		return "get"
	case "POST":
		return "post"
	case "PUT":
		return "put"
	case "DELETE":
		return "delete"
	default:
		return "request"
	}
}

func httpExtras(rest []object.Value, fn string, firstPos int) (string, map[string]string, error) {
	var body string
	var headers map[string]string
	if len(rest) >= 1 {
		if _, isNil := rest[0].(object.Nil); !isNil {
			b, ok := rest[0].(object.String)
			if !ok {
				return "", nil, lispyerrors.Typef(fn, firstPos, "a string", string(rest[0].Kind()))
			}
			body = b.Value
		}
	}
	if len(rest) >= 2 {
		if _, isNil := rest[1].(object.Nil); !isNil {
			m, ok := rest[1].(*object.Map)
			if !ok {
				return "", nil, lispyerrors.Typef(fn, firstPos+1, "a map", string(rest[1].Kind()))
			}
			headers = make(map[string]string)
			for _, hk := range m.Order {
				p := m.Pairs[hk]
				key := ValueToErrorMessage(p.Key)
				if strings.HasPrefix(key, ":") {
					key = key[1:]
				}
				headers[key] = ValueToErrorMessage(p.Value)
			}
		}
	}
	return body, headers, nil
}

// doHTTP runs the request on its own goroutine and returns a promise
// resolving to the response map spec.md §4.7 describes, or rejecting with
// a NetworkError-prefixed reason.
func doHTTP(client *httpclient.Client, method, url, body string, headers map[string]string) *object.Promise {
	p := object.NewPromise()
	go func() {
		resp, err := client.Request(method, url, body, headers)
		if err != nil {
			p.Reject(object.String{Value: lispyerrors.New(lispyerrors.Network, "%s", err.Error()).Error()})
			return
		}
		p.Resolve(responseToMap(resp))
	}()
	return p
}

func responseToMap(resp *httpclient.Response) *object.Map {
	m := object.NewMap()
	m.Set(object.Symbol{Name: ":status"}, object.Integer{Value: int64(resp.Status)})
	headers := object.NewMap()
	for k, v := range resp.Headers {
		headers.Set(object.Symbol{Name: ":" + k}, object.String{Value: v})
	}
	m.Set(object.Symbol{Name: ":headers"}, headers)
	m.Set(object.Symbol{Name: ":body"}, object.String{Value: resp.Body})
	m.Set(object.Symbol{Name: ":ok"}, object.BoolOf(resp.Ok()))
	m.Set(object.Symbol{Name: ":url"}, object.String{Value: resp.URL})
	if resp.JSON != nil {
		m.Set(object.Symbol{Name: ":json"}, jsonToValue(resp.JSON))
	}
	return m
}

func jsonToValue(v any) object.Value {
	switch v := v.(type) {
	case nil:
		return object.NilValue
	case bool:
		return object.BoolOf(v)
	case float64:
		return object.Float{Value: v}
	case string:
		return object.String{Value: v}
	case []any:
		elems := make([]object.Value, len(v))
		for i, e := range v {
			elems[i] = jsonToValue(e)
		}
		return &object.Vector{Elements: elems}
	case map[string]any:
		m := object.NewMap()
		for k, val := range v {
			m.Set(object.Symbol{Name: ":" + k}, jsonToValue(val))
		}
		return m
	default:
		return object.NilValue
	}
}
