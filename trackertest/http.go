package trackertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

type HTTPTestCase struct {
	Request  HTTPTestCaseRequest
	Expected HTTPTestCaseResponse
}

type HTTPTestCaseRequest struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	Headers  http.Header
	Modifier func(request *http.Request)
}

func (testCase HTTPTestCaseRequest) BuildRequest(t *testing.T) *http.Request {
	var body io.Reader
	switch typedBody := testCase.Body.(type) {
	case nil:
	case string:
		body = strings.NewReader(typedBody)
	default:
		bodyBytes, err := json.Marshal(typedBody)
		assert.NilError(t, err)
		body = bytes.NewBuffer(bodyBytes)
	}

	requestURL := testCase.Path
	if len(testCase.Query) > 0 {
		requestURL += "?" + testCase.Query.Encode()
	}

	request := httptest.NewRequest(
		testCase.Method,
		requestURL,
		body,
	)

	if testCase.Headers != nil {
		request.Header = testCase.Headers
	}

	if testCase.Modifier != nil {
		testCase.Modifier(request)
	}

	return request
}

// HTTPTestCaseResponse is compared against the recorded response. Body is
// matched as text when it is a string and as JSON otherwise. Check, when set,
// replaces the body comparison.
type HTTPTestCaseResponse struct {
	Status  int
	Headers http.Header
	Body    any
	Check   func(t *testing.T, body []byte)
}

func TestRequest(t *testing.T, handler http.Handler, testCase HTTPTestCase) *httptest.ResponseRecorder {
	t.Helper()

	recorder := httptest.NewRecorder()

	// Execute the request
	{
		handler.ServeHTTP(
			recorder,
			testCase.Request.BuildRequest(t),
		)
	}

	// Assert status code
	{
		assert.Equal(t, testCase.Expected.Status, recorder.Code, recorder.Body.String())
	}

	// Assert headers
	{
		for key := range testCase.Expected.Headers {
			assert.Equal(t, testCase.Expected.Headers.Get(key), recorder.Header().Get(key))
		}
	}

	// Assert body
	{
		if testCase.Expected.Check != nil {
			testCase.Expected.Check(t, recorder.Body.Bytes())
			return recorder
		}

		responseBody := strings.TrimSpace(recorder.Body.String())
		expectedBody := ""
		switch typedBody := testCase.Expected.Body.(type) {
		case string:
			expectedBody = typedBody
		default:
			jsonBytes, err := json.Marshal(typedBody)
			assert.NilError(t, err)
			expectedBody = string(jsonBytes)
		}

		assert.Equal(t, expectedBody, responseBody)
	}

	return recorder
}
