package client

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
)

// RpcGet get the url and decode the json response into result
func RpcGet(result interface{}, url string) error {
	return RpcGetRequest(result, url, nil, nil, defaultTimeout)
}

// RpcGetRequest get with query params and headers and decode the
// json response into result
func RpcGetRequest(result interface{}, url string, params, headers map[string]string, timeout int) error {
	resp, err := HTTPGet(url, params, headers, timeout)
	if err != nil {
		return fmt.Errorf("GET request error: %v (url: %v, params: %v)", err, url, params)
	}

	defer resp.Body.Close()
	const maxReadContentLength int64 = 1024 * 1024 * 10 // 10M
	body, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxReadContentLength))
	if err != nil {
		return fmt.Errorf("read body error: %v", err)
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("wrong response status %v. message: %v", resp.StatusCode, string(body))
	}

	err = json.Unmarshal(body, &result)
	if err != nil {
		return fmt.Errorf("unmarshal result error: %v", err)
	}
	return nil
}
