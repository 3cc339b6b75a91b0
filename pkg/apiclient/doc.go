/*
Package apiclient is the HTTP gateway to the account and user-administration
REST API consumed by the console.

# Overview

A single Client covers every endpoint. Calls that need the caller's identity
send the bearer credential obtained from the configured TokenSource; when the
source has no token the request goes out anonymously and the server decides.

	client := apiclient.New("https://emr.example.com/",
		apiclient.WithTokenSource(holder),
	)

	resp, err := client.Authenticate(ctx, apiclient.Credentials{
		Username: "admin",
		Password: "admin",
	})
	if err != nil {
		return err
	}
	bearer := resp.Header.Get("Authorization") // "Bearer <jwt>"

# Responses

Every method returns a *Response[T] carrying the decoded body together with
the response headers. Headers matter: the bearer token comes back in
Authorization and paged user lists report their size in X-Total-Count.

	page, err := client.ListUsersAsAdmin(ctx, apiclient.ListParams{Page: 0, Size: 20, Sort: "id,asc"})
	total, err := page.TotalCount()

# Error Handling

Non-2xx responses are returned as *APIError with the HTTP status, a stable
Code and a human-readable Message. Transport failures (DNS, refused
connections, context deadlines) are returned wrapped, so errors.Is works
against context.DeadlineExceeded and friends.

	_, err := client.GetAccount(ctx)
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		// not logged in
	}

# Thread Safety

Client holds no mutable state of its own and is safe for concurrent use as
long as the TokenSource is.
*/
package apiclient
