package page

import (
	"fmt"
	"html/template"
	"strings"

	"qr-payment-service/internal/domain/model"
	"qr-payment-service/internal/domain/ports/adapter"
)

var _ adapter.PageRenderer = (*Renderer)(nil)

// Renderer produces the standalone customer payment page. The embedded
// script polls /api/check-status (first poll after 1s, then every 3s),
// redirects to SuccessURL 5 seconds after a paid result, and to FailURL
// after a 5 minute timeout or a manual cancel.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// templateInput mirrors model.PaymentPage with the QR image marked as a
// trusted URL, so html/template keeps data: image URIs intact.
type templateInput struct {
	OrderID     string
	OperationID string
	AmountRub   float64
	QRImage     template.URL
	SuccessURL  string
	FailURL     string
}

func (r *Renderer) Render(in model.PaymentPage) (string, error) {
	var sb strings.Builder
	err := paymentPage.Execute(&sb, templateInput{
		OrderID:     in.OrderID,
		OperationID: in.OperationID,
		AmountRub:   in.AmountRub,
		QRImage:     template.URL(in.QRImage),
		SuccessURL:  in.SuccessURL,
		FailURL:     in.FailURL,
	})
	if err != nil {
		return "", fmt.Errorf("render payment page: %w", err)
	}
	return sb.String(), nil
}

var paymentPage = template.Must(template.New("payment").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Оплата заказа #{{.OrderID}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: 'Arial', sans-serif;
            background: #ffffff;
            min-height: 100vh;
            display: flex;
            align-items: center;
            justify-content: center;
            padding: 20px;
        }
        .container {
            background: white;
            border-radius: 20px;
            box-shadow: 0 20px 40px rgba(0,0,0,0.1);
            padding: 40px;
            max-width: 500px;
            width: 100%;
            text-align: center;
        }
        .header { margin-bottom: 30px; }
        .header h1 {
            color: #2c3e50;
            font-size: 28px;
            margin-bottom: 10px;
            font-weight: 600;
        }
        .order-info { color: #7f8c8d; font-size: 16px; margin-bottom: 5px; }
        .amount {
            font-size: 42px;
            font-weight: bold;
            color: #27ae60;
            margin: 25px 0;
        }
        .qr-container {
            background: #f8f9fa;
            padding: 20px;
            border-radius: 15px;
            margin: 25px 0;
            border: 2px solid #e9ecef;
        }
        .qr-code { max-width: 100%; border-radius: 10px; }
        .status-area { margin: 25px 0; }
        .status-message {
            background: #fff3cd;
            color: #856404;
            padding: 15px;
            border-radius: 10px;
            border: 1px solid #ffeaa7;
            font-size: 16px;
            margin-bottom: 15px;
        }
        .status-success {
            background: #d4edda;
            color: #155724;
            border-color: #c3e6cb;
        }
        .countdown {
            background: #e3f2fd;
            color: #1976d2;
            padding: 12px;
            border-radius: 8px;
            font-size: 14px;
            margin: 15px 0;
        }
        .timer { font-weight: bold; font-size: 18px; }
        .cancel-btn {
            background: #e74c3c;
            color: white;
            border: none;
            padding: 15px 30px;
            border-radius: 10px;
            font-size: 16px;
            cursor: pointer;
            width: 100%;
            transition: all 0.3s ease;
            font-weight: 600;
        }
        .cancel-btn:hover { background: #c0392b; transform: translateY(-2px); }
        .hidden { display: none; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💳 Оплата заказа</h1>
            <div class="order-info">Заказ #{{.OrderID}}</div>
        </div>

        <div class="amount">{{.AmountRub}} ₽</div>

        <div class="qr-container">
            <img src="{{.QRImage}}" alt="QR Code" class="qr-code">
        </div>

        <div class="status-area">
            <div id="pendingMessage" class="status-message">
                ⏳ Ожидание платежа...
            </div>

            <div id="successMessage" class="status-message status-success hidden">
                ✅ Платеж успешно завершен!
                <div id="countdown" class="countdown">
                    Автоматическое перенаправление через: <span class="timer" id="timer">5</span> сек
                </div>
            </div>
        </div>

        <button id="cancelBtn" class="cancel-btn">
            ❌ Отменить оплату
        </button>
    </div>

    <script>
        const operationId = {{.OperationID}};
        const successUrl = {{.SuccessURL}};
        const failUrl = {{.FailURL}};

        let checkInterval;
        let timeoutInterval;
        let minutesLeft = 5;
        let secondsLeft = 0;

        const pendingMessage = document.getElementById('pendingMessage');
        const successMessage = document.getElementById('successMessage');
        const timer = document.getElementById('timer');
        const cancelBtn = document.getElementById('cancelBtn');

        async function checkPaymentStatus() {
            try {
                const response = await fetch('/api/check-status', {
                    method: 'POST',
                    headers: { 'Content-Type': 'application/json' },
                    body: JSON.stringify({ operationId: operationId })
                });

                const result = await response.json();
                if (result.success && result.status === 'paid') {
                    showSuccess();
                }
            } catch (error) {
                console.error('Status check failed:', error);
            }
        }

        function showSuccess() {
            pendingMessage.classList.add('hidden');
            successMessage.classList.remove('hidden');
            cancelBtn.classList.add('hidden');

            if (checkInterval) { clearInterval(checkInterval); }
            if (timeoutInterval) { clearInterval(timeoutInterval); }

            startAutoRedirect();
        }

        function startAutoRedirect() {
            let seconds = 5;
            const countdownInterval = setInterval(() => {
                seconds--;
                timer.textContent = seconds;
                if (seconds <= 0) {
                    clearInterval(countdownInterval);
                    window.location.href = successUrl;
                }
            }, 1000);
        }

        function startTimeoutTimer() {
            updateTimeoutDisplay();
            timeoutInterval = setInterval(() => {
                if (secondsLeft === 0) {
                    if (minutesLeft === 0) {
                        clearInterval(timeoutInterval);
                        window.location.href = failUrl;
                        return;
                    }
                    minutesLeft--;
                    secondsLeft = 59;
                } else {
                    secondsLeft--;
                }
                updateTimeoutDisplay();
            }, 1000);
        }

        function updateTimeoutDisplay() {
            const timeString = minutesLeft + ':' + (secondsLeft < 10 ? '0' : '') + secondsLeft;
            pendingMessage.innerHTML = '⏳ Ожидание платежа...<br><small>Автоматическая отмена через: ' + timeString + '</small>';
        }

        cancelBtn.addEventListener('click', function() {
            window.location.href = failUrl;
        });

        startTimeoutTimer();

        setTimeout(() => {
            checkPaymentStatus();
            checkInterval = setInterval(checkPaymentStatus, 3000);
        }, 1000);
    </script>
</body>
</html>`))

// ErrorPage renders the minimal inline error page served on the browser path.
func ErrorPage(msg string) string {
	var sb strings.Builder
	_ = errorPage.Execute(&sb, struct{ Msg string }{Msg: msg})
	return sb.String()
}

var errorPage = template.Must(template.New("error").Parse(
	`<html><body><h2>Error: {{.Msg}}</h2></body></html>`))
