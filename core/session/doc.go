// Package session owns the authenticated HTTP client used to talk to the course site.
//
// A Manager either restores cookies persisted by an earlier run or posts the
// login form, and hands back a Session whose client carries a cookie jar and a
// fixed browser-like header set:
//
//	store := session.NewFileStore("cookie.bin")
//	mgr, err := session.NewManager(store, session.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	sess, res, err := mgr.LoadOrLogin(ctx, username, password)
//	if err != nil {
//		return err // session.ErrAuthenticationFailed when the login was rejected
//	}
//	defer mgr.Persist(ctx, sess)
//
// # Persistence
//
// Only cookies are persisted, encoded by EncodeState as an opaque blob. Store
// implementations exist for a local file (FileStore), Redis and S3. A stored
// session is trusted without any expiry check.
//
// # Login Results
//
// LoginResult distinguishes a fresh login, a restored session and a rejected
// login. With WithBestEffort(true) a rejected login still returns the session
// so the caller may try to continue unauthenticated.
package session
