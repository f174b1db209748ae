// Reader is a testing facility to read the output of a http reporter.

package reporter

import (
	"io"
	"net/http"
)

type HttpReader struct {
	serverIP   string // listen ip
	serverPort string // listen port
}

func NewHttpReader(serverIP string, serverPort string) *HttpReader {
	return &HttpReader{
		serverIP:   serverIP,
		serverPort: serverPort,
	}
}

func (hr *HttpReader) get(route string) (string, error) {
	url := "http://" + hr.serverIP + ":" + hr.serverPort + route

	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Read the response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Convert the body to a string
	return string(body), nil
}

func (hr *HttpReader) GetHello() (string, error) {
	return hr.get(ROUTE_HELLO)
}

func (hr *HttpReader) GetCustody(asset string) (string, error) {
	return hr.get(ROUTE_CUSTODY + "?asset=" + asset)
}

func (hr *HttpReader) GetPrincipal(asset string) (string, error) {
	return hr.get(ROUTE_PRINCIPAL + "?asset=" + asset)
}

func (hr *HttpReader) GetAsset(asset string) (string, error) {
	return hr.get(ROUTE_ASSET + "?asset=" + asset)
}

func (hr *HttpReader) GetPaused() (string, error) {
	return hr.get(ROUTE_PAUSED)
}
