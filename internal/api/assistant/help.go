package assistant

const HelpText = `Merhaba! İşte yapabildiğim bazı şeyler:

1. Sayfa Yönlendirme:
   - "ürünler sayfasına git"
   - "kategoriler sayfasını aç"
   - "tedarikçiler bölümüne git"

2. Kategori İşlemleri:
   - "kategori ekle adı [isim]"
   - "kategori güncelle [isim] yeni adı [isim]"
   - "kategori sil [isim]"
   - "[kategori] kategorisine [isim] alt kategori ekle"

3. Ürün İşlemleri:
   - "ürün ekle adı [isim] fiyatı [fiyat] stok [miktar]"
   - "ürün güncelle [isim] fiyat [yeni fiyat]"
   - "stok güncelle [ürün adı] yeni stok [miktar]"

4. Tedarikçi İşlemleri:
   - "tedarikçi ekle adı [isim] telefon [numara]"
   - "tedarikçi güncelle [isim] telefon [yeni numara]"

5. Birim İşlemleri:
   - "birim ekle adı [isim]"
   - "birim güncelle [isim] yeni adı [isim]"

6. Stok Hareketleri:
   - "stok girişi ekle ürün [isim] miktar [sayı]"
   - "stok çıkışı ekle ürün [isim] miktar [sayı]"

7. Diğer:
   - "son konuşmaları göster"
   - "öğren: "[komut]" -> "[eylem]""

Her zaman daha doğal bir dille konuşabilirsiniz. Size yardımcı olmak için elimden geleni yapacağım!`
