// Package mocks provides shared test doubles for the store, notifier and
// token interfaces.
//
// Store mocks are built on testify/mock; set expectations with On and
// verify them with AssertExpectations. MockNotifier and MockJWTService use
// function fields instead, which suits concurrent callers and tests that
// only care about a single behaviour.
//
//	notifier := &mocks.MockNotifier{
//	    SendFn: func(ctx context.Context, to, subject, body string) error {
//	        return nil
//	    },
//	}
package mocks
