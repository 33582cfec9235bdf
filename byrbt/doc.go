// Package byrbt provides a client for the BYRBT private tracker web
// interface.
//
// The tracker has no API; the client drives the same pages a browser
// would. It maintains an authenticated session whose cookies are
// persisted to disk between runs, performs the captcha-assisted login
// when no saved session exists, and parses listing and detail pages
// into typed records.
//
// # Session handling
//
// A successful login is recognized solely by the tracker redirecting to
// its index page; anything else leaves the session unauthenticated.
// FetchPage never interprets responses itself: it returns the page
// together with the URL that finally served it, and callers treat a
// landing on the login page as session expiry.
//
// # Usage
//
//	solver := byrbt.NewCommandSolver("decaptcha", "model.dat", logger)
//	client, err := byrbt.NewClient("https://bt.byr.cn/", user, pass, "cookies", solver, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := client.LoadOrLogin(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	page, err := client.FetchPage(ctx, byrbt.ListQuery{Page: 0}.Path())
//	if err != nil {
//		log.Fatal(err)
//	}
//	records, err := byrbt.ParseListing(page)
package byrbt
