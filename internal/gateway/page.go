package gateway

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// chatPage renders the built-in chat front-end. Kept as a single component so
// the server works with an empty web root; extra assets can still be dropped
// under WEB_ROOT and served alongside.
func chatPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, chatPageHTML)
		return err
	})
}

const chatPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Llama AI Chat</title>
<style>
  * { box-sizing: border-box; margin: 0; padding: 0; }
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #f4f4f7; display: flex; flex-direction: column; height: 100vh; }
  header { padding: 14px 20px; background: #ffffff; border-bottom: 1px solid #e2e2e8; display: flex; justify-content: space-between; align-items: center; }
  header h1 { font-size: 18px; }
  #chatContainer { flex: 1; overflow-y: auto; padding: 20px; display: flex; flex-direction: column; gap: 12px; }
  .welcome-message { text-align: center; color: #666; margin-top: 40px; }
  .message { display: flex; gap: 10px; max-width: 80%; }
  .message.user { align-self: flex-end; flex-direction: row-reverse; }
  .message-avatar { width: 32px; height: 32px; border-radius: 50%; background: #e2e2e8; display: flex; align-items: center; justify-content: center; flex-shrink: 0; }
  .message-content { background: #ffffff; border: 1px solid #e2e2e8; border-radius: 10px; padding: 10px 14px; white-space: pre-wrap; word-break: break-word; }
  .message.user .message-content { background: #2563eb; color: #fff; border-color: #2563eb; }
  footer { padding: 14px 20px; background: #ffffff; border-top: 1px solid #e2e2e8; display: flex; gap: 10px; }
  #userInput { flex: 1; resize: none; border: 1px solid #c9c9d2; border-radius: 8px; padding: 10px; font: inherit; max-height: 120px; }
  button { border: 0; border-radius: 8px; padding: 10px 18px; font: inherit; cursor: pointer; background: #2563eb; color: #fff; }
  button:disabled { opacity: 0.5; cursor: default; }
  #clearBtn { background: #6b7280; }
</style>
</head>
<body>
<header>
  <h1>Llama AI Chat</h1>
  <button id="clearBtn">Clear</button>
</header>
<div id="chatContainer">
  <div class="welcome-message">
    <h2>Welcome to Llama AI!</h2>
    <p>Powered by Llama 3.3</p>
  </div>
</div>
<footer>
  <textarea id="userInput" rows="1" placeholder="Type your message here..."></textarea>
  <button id="sendBtn">Send</button>
</footer>
<script>
const chatContainer = document.getElementById('chatContainer');
const userInput = document.getElementById('userInput');
const sendBtn = document.getElementById('sendBtn');
const clearBtn = document.getElementById('clearBtn');
const API_URL = window.location.origin + '/api';

userInput.addEventListener('input', function () {
  this.style.height = 'auto';
  this.style.height = Math.min(this.scrollHeight, 120) + 'px';
});

sendBtn.addEventListener('click', sendMessage);
userInput.addEventListener('keypress', (e) => {
  if (e.key === 'Enter' && !e.shiftKey) {
    e.preventDefault();
    sendMessage();
  }
});

function addMessage(text, sender) {
  const messageDiv = document.createElement('div');
  messageDiv.className = 'message ' + sender;

  const avatar = document.createElement('div');
  avatar.className = 'message-avatar';
  avatar.textContent = sender === 'user' ? 'U' : 'A';

  const content = document.createElement('div');
  content.className = 'message-content';
  content.textContent = text;

  messageDiv.appendChild(avatar);
  messageDiv.appendChild(content);
  chatContainer.appendChild(messageDiv);
  chatContainer.scrollTo({ top: chatContainer.scrollHeight, behavior: 'smooth' });
}

async function sendMessage() {
  const message = userInput.value.trim();
  if (!message) return;

  sendBtn.disabled = true;
  const welcome = document.querySelector('.welcome-message');
  if (welcome) welcome.remove();

  addMessage(message, 'user');
  userInput.value = '';
  userInput.style.height = 'auto';

  try {
    const response = await fetch(API_URL + '/chat', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ message: message })
    });
    const data = await response.json();
    if (data.status === 'success') {
      addMessage(data.response, 'assistant');
    } else {
      addMessage('Error: ' + (data.error || 'unknown error'), 'assistant');
    }
  } catch (err) {
    addMessage('Cannot connect to server. Please try again.', 'assistant');
  } finally {
    sendBtn.disabled = false;
  }
}

clearBtn.addEventListener('click', async () => {
  if (!confirm('Clear conversation history?')) return;
  try {
    await fetch(API_URL + '/clear', { method: 'POST' });
    chatContainer.innerHTML = '<div class="welcome-message"><h2>Welcome to Llama AI!</h2><p>Powered by Llama 3.3</p></div>';
  } catch (err) {
    alert('Failed to clear conversation');
  }
});

window.addEventListener('load', () => userInput.focus());
</script>
</body>
</html>
`
