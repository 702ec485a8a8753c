package integration_test

const (
	TestUserId        = "user-1"
	TestBookingId     = "42"
	TestOperatorToken = "operator-secret"
	TestResultURL     = "https://shop.example.com/payment/result"
	TestStreamPrefix  = "events:"

	TestVNPayTmnCode = "TESTTMN1"
	TestVNPaySecret  = "VNPAYSECRET"
)
