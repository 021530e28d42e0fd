package reporting

// Fixed user-facing messages.
const (
	WelcomeMessage = "👋 Welcome to SolTokenScannerBot!\n\n" +
		"To search for token information, simply send the token address as a message.\n\n" +
		"Send me the token address, and I'll provide you with detailed information about the token!\n\n" +
		"Enjoy your time with us!"

	HelpMessage = "ℹ️ <b>How to use</b>\n\n" +
		"Send a Solana token mint address to get a full report.\n" +
		"/pairs &lt;address&gt; shows liquidity aggregated over all DexScreener pairs.\n" +
		"/help shows this message."

	InvalidAddressMessage = "❌ Oops! It seems like the token address you sent is invalid. " +
		"Please make sure it's 43 or 44 characters long and consists only of alphanumeric characters."

	GenericErrorMessage = "❌ Oops! Something went wrong while fetching the token report. Please try again later."

	MissingDataMessage = "❌ Oops! Sorry we couldnt get that token information."

	UnknownCommandMessage = "🤔 Unknown command. Send /help to see what I can do."

	PairsUsageMessage = "Usage: /pairs &lt;token address&gt;"
)
