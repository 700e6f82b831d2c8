package salesforce

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// session is the outcome of a successful SOAP login.
type session struct {
	// InstanceURL is the scheme and host of the org's API server.
	InstanceURL string

	// ID is the session token sent as a Bearer credential.
	ID string
}

// loginEnvelope is the SOAP request body. Marshalling through a struct
// keeps the credentials XML-escaped.
type loginEnvelope struct {
	XMLName xml.Name  `xml:"se:Envelope"`
	NS      string    `xml:"xmlns:se,attr"`
	Header  struct{}  `xml:"se:Header"`
	Body    loginBody `xml:"se:Body"`
}

type loginBody struct {
	Login loginCall `xml:"login"`
}

type loginCall struct {
	NS       string `xml:"xmlns,attr"`
	Username string `xml:"username"`
	Password string `xml:"password"`
}

// loginResponseEnvelope captures both the success and fault shapes; local
// element names match regardless of the namespace prefixes the org uses.
type loginResponseEnvelope struct {
	Body struct {
		Response struct {
			Result struct {
				ServerURL string `xml:"serverUrl"`
				SessionID string `xml:"sessionId"`
			} `xml:"result"`
		} `xml:"loginResponse"`
		Fault struct {
			Code    string `xml:"faultcode"`
			Message string `xml:"faultstring"`
		} `xml:"Fault"`
	} `xml:"Body"`
}

// login exchanges username and password+token for a session via the SOAP
// partner API, the one login flow that needs no connected-app client ID.
func (c *Connector) login(ctx context.Context, cfg *Config) (*session, error) {
	envelope := loginEnvelope{NS: "http://schemas.xmlsoap.org/soap/envelope/"}
	envelope.Body.Login = loginCall{
		NS:       "urn:partner.soap.sforce.com",
		Username: cfg.Username,
		Password: cfg.Password + cfg.Token,
	}

	payload, err := xml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("building login envelope: %w", err)
	}

	loginURL := fmt.Sprintf("%s/services/Soap/u/%s", cfg.LoginURL, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL,
		bytes.NewReader(append([]byte(xml.Header), payload...)))
	if err != nil {
		return nil, fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=UTF-8")
	req.Header.Set("SOAPAction", `""`)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Salesforce login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading login response: %w", err)
	}

	var parsed loginResponseEnvelope
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("Salesforce login returned an unexpected payload: %w", err)
	}

	if fault := parsed.Body.Fault; fault.Message != "" {
		return nil, fmt.Errorf("Salesforce login failed: %s", fault.Message)
	}

	result := parsed.Body.Response.Result
	if result.SessionID == "" || result.ServerURL == "" {
		return nil, fmt.Errorf("Salesforce login failed: HTTP %d without a session", resp.StatusCode)
	}

	instance, err := instanceFromServerURL(result.ServerURL)
	if err != nil {
		return nil, err
	}
	return &session{InstanceURL: instance, ID: result.SessionID}, nil
}

// instanceFromServerURL reduces the SOAP server URL to scheme and host,
// which is the base for the REST query API.
func instanceFromServerURL(serverURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("Salesforce login returned an invalid server URL %q", serverURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
