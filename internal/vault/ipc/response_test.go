package ipc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func TestFromResult_Exclusive(t *testing.T) {
	inputs := []struct {
		name string
		data *payload
		err  error
	}{
		{"ok", &payload{Name: "x"}, nil},
		{"ok nil data", nil, nil},
		{"error", nil, common.NotFound("Tag")},
		{"error wins over data", &payload{Name: "x"}, common.Credential()},
		{"foreign error", nil, errors.New("pq: password authentication failed")},
	}

	for _, in := range inputs {
		t.Run(in.name, func(t *testing.T) {
			r := FromResult(in.data, in.err)
			if in.err != nil {
				assert.Equal(t, StatusError, r.Status)
				assert.Nil(t, r.Result)
				require.NotNil(t, r.Error)
			} else {
				assert.Equal(t, StatusSuccess, r.Status)
				assert.Nil(t, r.Error)
				require.NotNil(t, r.Result)
				assert.Equal(t, in.data, r.Result.Data)
			}
		})
	}
}

func TestResponse_JSONShape(t *testing.T) {
	b, err := json.Marshal(Ok(payload{Name: "go"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Success","result":{"data":{"name":"go"}}}`, string(b))

	b, err = json.Marshal(Fail[payload](common.Query(errors.New("syntax error"))))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Error","error":{"message":"Database query failed"}}`, string(b))

	b, err = json.Marshal(Fail[payload](errors.New("leaky detail")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Error","error":{"message":"Unexpected error"}}`, string(b))
}

func TestIntoResult(t *testing.T) {
	data, err := Ok(3).IntoResult()
	require.NoError(t, err)
	assert.Equal(t, 3, data)

	_, err = Fail[int](common.Credential()).IntoResult()
	require.EqualError(t, err, "Invalid credentials")

	_, err = Response[int]{Status: StatusSuccess}.IntoResult()
	require.Error(t, err)
}

func TestErase(t *testing.T) {
	r := Ok(payload{Name: "go"}).Erase()
	require.NotNil(t, r.Result)
	assert.Equal(t, payload{Name: "go"}, r.Result.Data)

	e := Fail[payload](common.Credential()).Erase()
	assert.Nil(t, e.Result)
	assert.Equal(t, "Invalid credentials", e.Error.Message)
}

func TestListParams_Decode(t *testing.T) {
	var p ListParams[payload]
	require.NoError(t, json.Unmarshal([]byte(`{"filter":{"name":"go"},"page":2,"pageSize":10}`), &p))
	require.NotNil(t, p.Filter)
	assert.Equal(t, "go", p.Filter.Name)
	assert.Equal(t, 2, *p.Page)
	assert.Equal(t, 10, *p.PageSize)
}
